package sqlinline

// Campaign rows are written by the chain indexer; this service only reads them.

const QListCampaignAddresses = `--sql 46b9912c-0331-4f9c-9117-95703427a9e1
select address
from campaigns
order by address asc;
`

const QSelectCampaignFacts = `--sql 644325e6-5103-41a0-bdf8-8c541b79fb5f
select address,
       title,
       beneficiary,
       funding_goal_usd::text,
       total_raised_native::text,
       deadline_unix,
       funding_goal_reached,
       campaign_closed
from campaigns
where lower(address) = lower($1::text);
`

const QSelectContribution = `--sql 10f786d4-495f-42bd-a035-4fd687a0e4dd
select coalesce(sum(amount_wei), 0)::text
from campaign_contributions
where lower(campaign_address) = lower($1::text)
  and lower(contributor) = lower($2::text);
`
